package belief

// #region trait-names
// TraitNames maps each of the 28 trait indices to its stable name. Catalog
// files reference traits by these names; the index layout is fixed for the
// lifetime of a deployment because candidate signatures are computed offline
// against it.
var TraitNames = [Dim]string{
	"camera_quality",
	"night_photography",
	"video_recording",
	"selfie_priority",
	"zoom_reach",
	"battery_life",
	"charging_speed",
	"thermal_tolerance",
	"sustained_performance",
	"gaming_intensity",
	"app_multitasking",
	"display_brightness",
	"refresh_rate",
	"screen_size_comfort",
	"one_hand_use",
	"build_premium",
	"durability",
	"water_resistance",
	"software_simplicity",
	"update_longevity",
	"ecosystem_lockin",
	"customization",
	"privacy_sensitivity",
	"storage_hunger",
	"audio_quality",
	"price_sensitivity",
	"resale_value",
	"brand_loyalty",
}

var traitIndex = func() map[string]int {
	m := make(map[string]int, Dim)
	for i, n := range TraitNames {
		m[n] = i
	}
	return m
}()

// TraitIndex resolves a trait name to its vector index.
func TraitIndex(name string) (int, bool) {
	i, ok := traitIndex[name]
	return i, ok
}

// #endregion trait-names
