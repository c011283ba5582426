// Package timetable defines the class schedule domain model shared by the
// scraper, the calendar exporter and the HTTP API.
package timetable
