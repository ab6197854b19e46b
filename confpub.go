// Package confpub publishes locally built Sphinx documentation to a
// Confluence wiki. A declarative page tree maps build artifacts to remote
// pages; each run compares the prospective content of every page against
// its remote copy and only pushes pages that actually changed.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., etree/, http/, sqlite/).
package confpub
