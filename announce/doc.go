// Package announce keeps this process registered with an HTTP discovery
// registry.
//
// Every period the Service builds a fresh Descriptor and PUTs it to the
// registry endpoints in priority order, stopping at the first one that
// answers 202 Accepted. A LogGate suppresses repeated "still failing" or
// "still announced" output: a tick's messages are logged only on the first
// tick and whenever the outcome differs from the previous tick. On Stop the
// announcement is DELETEd from every endpoint, whatever each one answers.
//
// Wire format:
//
//	PUT <endpoint>/v1/announcement/<nodeId>
//	User-Agent: <nodeId>
//	Content-Type: application/json
//
//	{"environment": "prod", "pool": "general", "location": "/<nodeId>",
//	 "services": [{"id": "<announcementId>", "type": "reporting",
//	               "properties": {"http": "http://10.0.0.5:8080"}}]}
package announce
