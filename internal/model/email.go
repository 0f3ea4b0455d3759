package model

// RawEmail is a single message returned by the mail connector. The core
// treats it as read-only input; Date is whatever header the sender supplied
// and is not guaranteed to parse.
type RawEmail struct {
	ID      string
	Subject string
	From    string
	Date    string
	Snippet string
	Body    string
}

// User identifies the signed-in account that gates scan operations.
type User struct {
	Name   string
	Email  string
	Avatar string
}
