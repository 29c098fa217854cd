package authflow

import "google.golang.org/api/calendar/v3"

// Scopes requested from the user. The host module only reads calendars,
// so the grant never carries more than read-only access.
var Scopes = []string{calendar.CalendarReadonlyScope}
