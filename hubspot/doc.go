// Package hubspot is a client for the HubSpot CRM v3 objects API.
//
// Every call goes through Client.Request. When a request times out the
// client polls a health endpoint with a halved Fibonacci backoff (at most 5
// probes within 10s by default) and reissues the request once the service
// answers 200. If it never does, the call fails with a ServiceUnhealthy
// error:
//
//	resp, err := client.Get(ctx, "contacts/123")
//	switch {
//	case hubspot.IsServiceUnhealthy(err):
//	    // HubSpot did not recover
//	case err != nil:
//	    // timeout with retry disabled, connection failure, cancellation
//	case !resp.Successful():
//	    log.Println(resp.ErrorMessage())
//	}
//
// Default request options can be scoped to a context:
//
//	ctx, guard := client.Context(ctx, params.Params{hubspot.OptTimeout: 30 * time.Second})
//	defer guard.Release()
//
// Requests made with ctx use the 30s timeout unless they pass their own.
// Client.Async runs the same dispatcher without blocking.
package hubspot
