// Package signup drives account creation from the first form field to the
// confirmed, logged-in session.
//
// A Flow walks through
//
//	CollectingEmail -> CollectingPassword -> CollectingLocation ->
//	CollectingTopics -> AwaitingVerification -> Confirmed
//
// and may be abandoned at any point. Each collecting step validates its own
// input and stays put on failure. Leaving CollectingTopics stages the full
// record under the pendingSignupData key and asks the server to email a
// verification code; the staged record survives restarts and is picked up
// again by Flow.Resume.
package signup
