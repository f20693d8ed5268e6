// Package sms defines the contract for delivering text messages to phones.
//
// Use cases depend on the SMS interface only. The concrete drivers are Amazon
// SNS for real delivery and a log driver that writes messages to slog for
// local runs and tests.
package sms
