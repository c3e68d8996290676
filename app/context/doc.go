// Package context contains the application context, which is passed to every
// CLI command.
//
// It lives outside of the app package to avoid a circular import between the
// app and cli packages.
package context
