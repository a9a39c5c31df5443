// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

package schema

// CoreVoiceSessionTable represents the 'core.voicesession' table
type CoreVoiceSessionTable struct {
	Table              string
	ID                 string
	OwnerID            string
	BookID             string
	StartedAt          string
	EndedAt            string
	DurationSeconds    string
	BillingPeriodStart string
}

// CoreVoiceSession is the schema definition for core.voicesession
var CoreVoiceSession = CoreVoiceSessionTable{
	Table:              "core.voicesession",
	ID:                 "id",
	OwnerID:            "ownerid",
	BookID:             "bookid",
	StartedAt:          "startedat",
	EndedAt:            "endedat",
	DurationSeconds:    "durationseconds",
	BillingPeriodStart: "billingperiodstart",
}

func (t CoreVoiceSessionTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.BookID, t.StartedAt, t.EndedAt,
		t.DurationSeconds, t.BillingPeriodStart,
	}
}
