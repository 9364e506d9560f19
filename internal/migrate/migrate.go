package migrate

import (
	"log"
	"time"

	"examtrack/internal/models"
)

// The store document has gone through three schema generations. Each
// upgrade step below is a pure transform over the generic JSON form and
// stamps the version it produces, so running the pipeline on an
// already-current document changes nothing.
//
//	v0: untagged. History under "sessionHistory", the active session under
//	    "activeSession", sessions keyed by "examId"/"examTitle" with their
//	    questions under "questionAttempts", and attempt sub-records using
//	    "answers"/"valid".
//	v1: current field names, tagged. Questions still carried a single
//	    "highlightCount" and had no first-action classification.
//	v2: split highlight counters and first-action fields present, but
//	    timestamps were RFC 3339 strings.
//	v3: current. Timestamps are unix milliseconds.
var steps = map[int]func(map[string]interface{}){
	0: upgradeV0,
	1: upgradeV1,
	2: upgradeV2,
}

// Document runs the ordered migration pipeline on a decoded store
// document and returns it at the current schema version. Documents from
// a newer, unknown version are left untouched.
func Document(doc map[string]interface{}) map[string]interface{} {
	if doc == nil {
		return nil
	}
	v := Version(doc)
	if v > models.StoreVersion {
		log.Printf("statistics store has unknown schema version %d, leaving it as-is", v)
		return doc
	}
	for ; v < models.StoreVersion; v++ {
		steps[v](doc)
		doc["version"] = v + 1
	}
	return doc
}

// Version reads the schema tag of a decoded store document. Untagged
// documents predate tagging and count as version 0.
func Version(doc map[string]interface{}) int {
	switch v := doc["version"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// upgradeV0 renames the untagged legacy keys into their tagged v1 names.
func upgradeV0(doc map[string]interface{}) {
	renameKey(doc, "sessionHistory", "sessions")
	renameKey(doc, "activeSession", "currentSession")
	forEachSession(doc, func(s map[string]interface{}) {
		renameKey(s, "examId", "examCode")
		renameKey(s, "examTitle", "examName")
		renameKey(s, "questionAttempts", "questions")
		forEachQuestion(s, func(q map[string]interface{}) {
			forEachAttempt(q, func(a map[string]interface{}) {
				renameKey(a, "answers", "selected")
				renameKey(a, "valid", "correct")
			})
		})
	})
}

// upgradeV1 splits the single highlight counter and backfills the
// first-action classification from the oldest attempt sub-record.
func upgradeV1(doc map[string]interface{}) {
	forEachSession(doc, func(s map[string]interface{}) {
		forEachQuestion(s, func(q map[string]interface{}) {
			renameKey(q, "highlightCount", "highlightClicks")
			if _, ok := q["highlightViews"]; !ok {
				q["highlightViews"] = 0
			}
			if _, ok := q["firstActionType"]; !ok {
				action := models.FirstActionNone
				recorded := false
				if attempts, ok := q["attempts"].([]interface{}); ok && len(attempts) > 0 {
					if first, ok := attempts[0].(map[string]interface{}); ok {
						recorded = true
						switch {
						case first["highlight"] == true:
							action = models.FirstActionPreview
						case first["correct"] == true:
							action = models.FirstActionCorrect
						default:
							action = models.FirstActionIncorrect
						}
					}
				}
				q["firstActionType"] = action
				q["firstActionRecorded"] = recorded
			}
		})
	})
}

// upgradeV2 converts RFC 3339 timestamp strings to unix milliseconds.
func upgradeV2(doc map[string]interface{}) {
	forEachSession(doc, func(s map[string]interface{}) {
		convertTime(s, "startTime", false)
		convertTime(s, "endTime", true)
		forEachQuestion(s, func(q map[string]interface{}) {
			convertTime(q, "startTime", false)
			convertTime(q, "endTime", true)
			forEachAttempt(q, func(a map[string]interface{}) {
				convertTime(a, "timestamp", false)
			})
		})
	})
	if exams, ok := doc["examStats"].(map[string]interface{}); ok {
		for _, v := range exams {
			if bucket, ok := v.(map[string]interface{}); ok {
				convertTime(bucket, "lastAttempt", false)
			}
		}
	}
}

// renameKey copies from into to (unless to already exists) and deletes
// the legacy key, which makes a second pass a no-op.
func renameKey(m map[string]interface{}, from, to string) {
	v, ok := m[from]
	if !ok {
		return
	}
	if _, exists := m[to]; !exists {
		m[to] = v
	}
	delete(m, from)
}

// convertTime parses an RFC 3339 string value in place. Unparseable
// required values become 0; unparseable optional values are dropped.
func convertTime(m map[string]interface{}, key string, optional bool) {
	s, ok := m[key].(string)
	if !ok {
		return
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		if optional {
			delete(m, key)
		} else {
			m[key] = 0
		}
		return
	}
	m[key] = t.UnixMilli()
}

func forEachSession(doc map[string]interface{}, fn func(map[string]interface{})) {
	if sessions, ok := doc["sessions"].([]interface{}); ok {
		for _, v := range sessions {
			if s, ok := v.(map[string]interface{}); ok {
				fn(s)
			}
		}
	}
	if cur, ok := doc["currentSession"].(map[string]interface{}); ok {
		fn(cur)
	}
}

func forEachQuestion(session map[string]interface{}, fn func(map[string]interface{})) {
	if questions, ok := session["questions"].([]interface{}); ok {
		for _, v := range questions {
			if q, ok := v.(map[string]interface{}); ok {
				fn(q)
			}
		}
	}
}

func forEachAttempt(question map[string]interface{}, fn func(map[string]interface{})) {
	if attempts, ok := question["attempts"].([]interface{}); ok {
		for _, v := range attempts {
			if a, ok := v.(map[string]interface{}); ok {
				fn(a)
			}
		}
	}
}
