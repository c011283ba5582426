// Package scraper fetches the gym's public schedule pages and turns them
// into class records: it resolves the Monday anchoring a requested week,
// fans fetches out across weeks, and parses the row-spanning agenda table.
package scraper
