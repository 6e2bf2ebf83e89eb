// Package mailer delivers one-time passcodes out of band.
//
// Two implementations exist: [SMTPSender] speaks real SMTP (STARTTLS or
// implicit TLS), and [DemoSender] emits the message through a logger and
// reports success. [NewFromConfig] picks the demo fallback automatically
// when the transport is unconfigured, so the service runs without real
// mail infrastructure.
//
// # What this package must NOT do
//
//   - Decide whether a delivery failure aborts the operation that
//     triggered it. That policy belongs to the engine.
package mailer
