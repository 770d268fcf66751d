// Package testutil provides test doubles for the hubspot package.
//
// FakeTransport plugs into hubspot.WithTransport and answers from a script
// or from canned CRM fixtures, so no network is involved. Sandbox runs a
// gin server emulating the HubSpot objects API on a local port and
// implements the root testutil.TestComponent interface:
//
//	sandbox := hstest.NewSandbox(hstest.SandboxConfig{APIKey: "key"})
//	testutil.T(t).Setup(sandbox)
//	client, _ := hubspot.New(sandbox.ClientConfig())
package testutil
