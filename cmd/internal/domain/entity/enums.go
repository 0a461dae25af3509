package entity

import "strings"

// Locations and MenuNames are the fixed catalogs a room may reference.
// Lookups are case-insensitive and return the canonical lowercase form.

var Locations = []string{"gangnam", "hongdae", "sinchon", "itaewon", "jamsil", "seongsu"}

var MenuNames = []string{"korean", "chinese", "japanese", "western", "snack", "dessert"}

func CanonicalLocation(s string) (string, bool) {
	return canonical(Locations, s)
}

func CanonicalMenuName(s string) (string, bool) {
	return canonical(MenuNames, s)
}

func CanonicalStatus(s string) (RoomStatus, bool) {
	switch strings.ToLower(s) {
	case string(RoomStatusActive):
		return RoomStatusActive, true
	case string(RoomStatusInactive):
		return RoomStatusInactive, true
	}
	return "", false
}

func canonical(catalog []string, s string) (string, bool) {
	for _, c := range catalog {
		if strings.EqualFold(c, s) {
			return c, true
		}
	}
	return "", false
}
