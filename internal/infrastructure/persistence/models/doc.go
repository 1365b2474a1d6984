// Package models holds the GORM row types. Domain entities carry no ORM
// tags; each model converts to and from its entity with ToDomain and a
// FromDomain constructor.
//
// Layout:
// - base.go: BaseModel and the longitude/latitude pair behind PostGIS columns
// - identity.go: users and API tokens
// - siae.go: structures, memberships, conventions and financial annexes
// - city.go: cities used by the structure search
// - prescriber.go: prescriber organizations and their dependents
// - jobapplication.go, employeerecord.go: hiring and ASP transfer records
package models
