package util

import "database/sql"

// NullStringToString returns the empty string for NULL.
func NullStringToString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
