// Package store defines the persistence contracts of the application.
// Each interface describes one entity's storage operations; concrete
// implementations live in internal/platform/postgres. Every call is
// atomic on its own. Multi-step sequences that span calls (notably the
// add-child workflow) are orchestrated by the service layer with an
// explicit partial-failure policy, not by transactions here.
package store
