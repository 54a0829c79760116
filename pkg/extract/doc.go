// Package extract turns raw scraped documents into canonical Post records.
//
// It has two halves. The edge locator walks an arbitrarily shaped JSON
// document (as decoded into map[string]any / []any values) and returns the
// first collection stored under a key named "edges". The record normalizer
// maps one raw node from either of the two observed input dialects into a
// models.Post, or rejects it.
//
// The two dialects are:
//
//   - DialectLive: flat field names as produced by the live profile source
//     (timestamp, likes, comments, caption, ...).
//   - DialectCaptured: the nested edge_* wrapper shape found in captured
//     GraphQL API responses (taken_at_timestamp, edge_liked_by.count, ...).
package extract
