// Package logging provides structured logging for relaylink.
//
// This package wraps a zap logger with convenience functions used across
// the relay client, the admin gate, the secrets store and the CLI.
//
// # Log Levels
//
//   - Debug: request and response traces, raw scan bodies
//   - Info: logins, selections, event changes
//   - Warn: compatibility risks (cookie-less login, placeholder scan results)
//   - Error: failures the operator should see in the log as well
//
// Logging is silent unless a level is configured, so the CLI's own output
// stays clean. The level comes from --log-level, the log.level setting or
// RELAYLINK_LOG_LEVEL.
//
// # Credentials
//
// The logger is wrapped in a redacting core: any field whose key looks like
// a credential (password, pwd, secret, token, cookie, ...) is replaced with
// RedactedValue before it is encoded. Form bodies go through RedactForm:
//
//	logging.LogHTTPRequest("POST", endpoint, form.Values())
//
// Neither the plaintext nor the hashed relay password ever reaches the log.
//
// # Configuration
//
//	if err := logging.Initialize(settings.Log.Level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Tests install an observer with ReplaceLogger and restore the previous
// logger with the returned function.
package logging
