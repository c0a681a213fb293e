package application

import "expvar"

// Counters exposed on /api/debug/vars.
var (
	metricSignups          = expvar.NewInt("signups")
	metricLoginsFailed     = expvar.NewInt("logins_failed")
	metricFriendships      = expvar.NewInt("friendships")
	metricWatchParties     = expvar.NewInt("watch_parties")
	metricPartialBackLinks = expvar.NewInt("partial_backlinks")
)
