// Package types defines the shared data model for the lawyer search engine:
// lawyer records and their structured attributes, retrieval candidates and
// judge verdicts, and the message/response types exchanged with language
// model providers.
package types
