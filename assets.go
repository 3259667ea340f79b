package tracker

import "embed"

// EmailFS holds the notification templates, one directory per template
// containing html.tmpl and plaintext.tmpl.
//
//go:embed templates/emails
var EmailFS embed.FS

// MigrationsFS holds the numbered SQL migrations applied by trackerctl.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
