// Package infra contains the technical adapters of chargelog: logbook
// backends, report sinks, charts, logging and error monitoring. These
// packages depend on the interfaces defined in the core packages, never the
// reverse.
package infra
