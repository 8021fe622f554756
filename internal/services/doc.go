// Package services contains the business logic layer between the HTTP
// transport and the dataset store. Services resolve filter selections,
// run the analytics aggregations, and shape the responses the dashboard
// consumes, including explicit empty states for selections that match
// nothing.
package services
