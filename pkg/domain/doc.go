/*
Package domain contains the core domain models of the EcoVoyage trip planner.

It defines the reference data the planner prices against, the user's
selections, the itemized cost breakdown and the per-session Trip state that
the view state machine moves between screens. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Attraction / CostOption: immutable catalog entries with a unit cost.
  - Selections: one planner submission (city, attractions, tiers, counts).
  - Breakdown: the itemized result of pricing a Selections value.
  - Trip: the session snapshot (active Screen, Breakdown, Contact, History).
  - Screen: one of the three mutually exclusive views.
*/
package domain
