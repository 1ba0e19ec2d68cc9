// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains shared utilities, background job processing
// (using Redis/Asynq), the hosted identity-provider client, email
// integration (Resend), and the periodic dependency health monitor.
package lib
