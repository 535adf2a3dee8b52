package models

// All lists every model to be auto-migrated.
var All = []interface{}{
	&User{},
	&Genre{},
	&Mpa{},
	&Film{},
	&Friendship{},
	&Review{},
}
