/*
Package event provides a type-safe pub/sub event system for the FraudLens
server.

The bus lets components announce what happened without knowing who is
listening: the HTTP handlers publish, the SSE endpoint and any observers
subscribe, and neither side depends on the other.

# Architecture

The package is built on top of watermill's gochannel for infrastructure
while keeping direct-call delivery, so payloads stay typed Go values
instead of serialized messages. Both synchronous and asynchronous
publishing are available.

# Event Types

Session events:
  - session.created: a new triage session was created
  - session.message.appended: a turn was recorded in a session's history

Analysis events:
  - analysis.completed: a one-shot analysis finished successfully

Provider events:
  - provider.validated: a provider self-check ran (pass or fail)
  - breaker.state.changed: an outbound target's circuit changed state

Profile events:
  - profile.reloaded: the analysis profile directory was reloaded

# Basic Usage

Publishing events:

	// Asynchronous publishing (non-blocking)
	event.Publish(event.Event{
		Type: event.SessionCreated,
		Data: event.SessionCreatedData{Info: sess.Info()},
	})

	// Synchronous publishing (all subscribers run before this returns)
	event.PublishSync(event.Event{
		Type: event.BreakerStateChanged,
		Data: event.BreakerStateChangedData{Target: "llm.openai", From: "closed", To: "open"},
	})

Subscribing:

	unsub := event.Subscribe(event.AnalysisCompleted, func(e event.Event) {
		data := e.Data.(event.AnalysisCompletedData)
		// react to the completed analysis
	})
	defer unsub()

	// Or observe everything, as the SSE endpoint does
	unsub = event.SubscribeAll(func(e event.Event) { ... })

# Testing

The global bus persists across tests in a package; call event.Reset in
test setup or teardown to drop stale subscribers. Independent Bus
instances from NewBus avoid the global state entirely.
*/
package event
