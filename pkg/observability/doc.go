/*
Package observability exposes Prometheus metrics for decoding.

Every decode outcome is counted per form, and every violation is counted per
form and message key, so dashboards can show which fields users get wrong
most often.
*/
package observability
