// Package domain defines the core business entities of the Bambini
// application: guardians, children, schools, activities, and the
// relationships between them. Entities carry their own validation;
// persistence and transport concerns live elsewhere.
package domain
