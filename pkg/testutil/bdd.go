package testutil

import "testing"

// Given, When and Then name nested subtests so an end-to-end redemption
// scenario reads top to bottom in `go test -v` output, e.g.
// "Given a minted asset/When the holder redeems/Then the key is redeemed".
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

// When names the action under test.
func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

// Then names the expected outcome.
func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
