package model

// Package model contains domain models/data structures.
// Models carry one-directional foreign-key identifiers only; entities never
// hold back-references to the entities that reference them.

// DefaultUserID is the seeded ingestion user assigned to uploads that do not
// name an owner.
const DefaultUserID int64 = 1
