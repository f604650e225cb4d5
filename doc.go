// Package main provides the entry point for the enrollment synchronization
// service. It runs a Fiber web server exposing health, metrics and a trigger
// endpoint that reconciles the upstream education registry and the identity
// directory against the persisted snapshot of users, students, access grants
// and schools, persisting the result through gorm.
package main
