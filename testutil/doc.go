// Package testutil provides lifecycle helpers for test components.
//
// A TestComponent is a component.Component with Reset, Snapshot and Restore,
// so a shared fixture such as the HubSpot sandbox can be rewound between
// tests:
//
//	func TestUpdateContact(t *testing.T) {
//	    h := testutil.T(t)
//	    h.Setup(sandbox)   // stopped when the test ends
//	    h.Isolate(sandbox) // writes are rolled back when the test ends
//	}
package testutil
