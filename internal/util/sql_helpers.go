package util

import "database/sql"

// StringToNullString treats an empty string as NULL.
func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// BoolToNumber encodes a bool for Oracle NUMBER(1) columns.
func BoolToNumber(b bool) int {
	if b {
		return 1
	}
	return 0
}
