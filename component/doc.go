// Package component defines the lifecycle interfaces shared by the
// hubspotkit building blocks and an ordered Registry that starts them in
// registration order and stops them in reverse.
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: one-line configuration summary
package component
