// Package model holds the typed records decoded from the Mission Control backend.
//
// Every record is a direct projection of the backend's JSON shape:
//
//	{
//	  "_id": "k97...",
//	  "title": "Fix login button",
//	  "description": "The login button is broken",
//	  "status": "in_progress",
//	  "priority": "high",
//	  "projectId": "j57...",
//	  "project": {"_id": "j57...", "name": "Website", "color": "#3B82F6"},
//	  "assignedTo": {"_id": "u12...", "name": "Ada", "type": "agent"},
//	  "createdBy": {"_id": "u34...", "name": "Grace", "type": "human"},
//	  "dueDate": 1767225600000,
//	  "createdAt": 1766000000000,
//	  "updatedAt": 1766100000000
//	}
//
// # Task Status Values
//
//   - "todo": Task has not been started
//   - "in_progress": Task is being worked on
//   - "done": Task is complete
//
// # Priority Values
//
//   - "low", "medium", "high"
//
// Any other status or priority coming from the backend is rejected while
// decoding with a *ValidationError; it is never silently accepted.
//
// # Timestamps
//
// Timestamps are milliseconds since the Unix epoch and decode into Millis.
//
// # Validation
//
// Raw response bodies can be checked against the embedded JSON Schema
// (draft 2020-12) with ValidatePayload before they are decoded.
package model
