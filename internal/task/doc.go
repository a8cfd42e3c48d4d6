// Package task defines the task record, input validation, and validation of
// the stored task blob.
//
// The stored blob is a JSON array of task objects. Field names are kept
// verbatim so data written by earlier versions keeps loading:
//
//	[
//	  {
//	    "id": "7f0c2c8e-8a5e-4d9f-9d3e-2f9a6c1b0e44",
//	    "title": "Buy milk",
//	    "date": "2024-01-10",
//	    "description": "",
//	    "done": false,
//	    "createdAt": "2024-01-09T18:22:31.512Z"
//	  }
//	]
//
// # Dates
//
// The date field is either empty or a calendar date in YYYY-MM-DD form.
// Because that form sorts lexicographically, callers may order tasks by
// comparing the raw strings. FormatDate converts it to DD/MM/YYYY for display.
//
// # Validation
//
// Draft.Validate checks user input before it becomes a task. ValidateBlob
// checks a stored blob against the embedded JSON Schema (draft 2020-12) and
// then applies checks a schema cannot express, such as id uniqueness.
package task
