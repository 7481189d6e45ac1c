package models

// MaxTopics bounds how many topics a user may follow.
const MaxTopics = 5

// Topics is the catalog of selectable political topics, in display order.
var Topics = []string{
	"Healthcare",
	"Education",
	"Economy",
	"Environment",
	"Immigration",
	"Gun Control",
	"Civil Rights",
	"Foreign Policy",
	"Taxes",
	"Public Safety",
	"Infrastructure",
	"Other",
}

// States lists the accepted two-letter state codes.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL",
	"GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME",
	"MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH",
	"NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI",
	"WY",
}

func IsTopic(s string) bool {
	for _, t := range Topics {
		if t == s {
			return true
		}
	}
	return false
}

func IsState(s string) bool {
	for _, st := range States {
		if st == s {
			return true
		}
	}
	return false
}
