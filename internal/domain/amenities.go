package domain

// Enumerated tag values accepted on castles and rooms.
var (
	RoomAmenities = tagSet(
		"wifi",
		"private_bathroom",
		"air_conditioning",
		"fireplace",
		"tv",
		"mini_fridge",
		"balcony",
		"room_service",
		"antique_furniture",
		"castle_or_garden_views",
		"writing_desk",
		"luxury_linens",
		"tea_and_coffee_service",
		"hidden_door",
		"mini_library",
		"canopy_drapes",
		"soundproofed_walls",
	)

	CastleAmenities = tagSet(
		"wifi",
		"parking",
		"breakfast_included",
		"restaurant",
		"bar",
		"wine_cellar",
		"spa",
		"sauna",
		"swimming_pool",
		"gardens",
		"library",
		"chapel",
		"pet_friendly",
		"airport_shuttle",
	)

	Facilities = tagSet(
		"banquet_hall",
		"ballroom",
		"conference_room",
		"courtyard",
		"tennis_court",
		"horse_stables",
		"helipad",
		"private_lake",
		"hiking_trails",
		"elevator",
		"wheelchair_access",
	)

	Events = tagSet(
		"wedding",
		"corporate_retreat",
		"birthday",
		"medieval_banquet",
		"concert",
		"film_shooting",
		"photo_shoot",
		"wine_tasting",
		"ghost_tour",
	)
)

// TagSet is a closed vocabulary of tag values.
type TagSet map[string]struct{}

func tagSet(values ...string) TagSet {
	s := make(TagSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Unknown returns the values that are not members of s, in input order.
func (s TagSet) Unknown(values []string) []string {
	var out []string
	for _, v := range values {
		if _, ok := s[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
