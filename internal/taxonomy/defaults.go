package taxonomy

// Default returns the built-in Vadodara Municipal Corporation tables.
func Default() *Taxonomy {
	t := &Taxonomy{
		categories: defaultCategories(),
		zones:      defaultZones(),
		areas:      defaultAreas(),
		priorities: defaultPriorities(),
		wardMin:    1,
		wardMax:    19,
	}
	t.wards = buildWards(t.wardMin, t.wardMax)
	t.reindex()
	return t
}

var wardZones = map[int]string{
	1: "Central", 2: "Central", 3: "North", 4: "North",
	5: "East", 6: "East", 7: "South", 8: "South",
	9: "West", 10: "West", 11: "Central", 12: "North",
	13: "East", 14: "South", 15: "West", 16: "Central",
	17: "North", 18: "South", 19: "East",
}

func buildWards(min, max int) []Ward {
	wards := make([]Ward, 0, max-min+1)
	for n := min; n <= max; n++ {
		wards = append(wards, Ward{Name: WardName(n), Number: n, Zone: wardZones[n]})
	}
	return wards
}

func defaultCategories() []CategoryInfo {
	return []CategoryInfo{
		{
			Name:  StreetLight,
			Code:  "SL",
			Names: map[Language]string{English: "Street Light", Hindi: "स्ट्रीट लाइट"},
			Keywords: map[Language][]string{
				English: {"light", "lamp", "street light", "pole", "dark", "bulb", "streetlight", "no light", "broken light"},
				Hindi:   {"लाइट", "बत्ती", "खंभा", "बिजली", "अंधेरा", "बल्ब", "light nahi", "light band", "light kharab"},
			},
			Question: map[Language]string{
				English: "Is the light not working, flickering, or is the pole damaged?",
				Hindi:   "Kya light band hai, jhilmila rahi hai, ya pole tuta hua hai?",
			},
			SubCategories: []SubCategory{
				{ID: "light_off", Names: names("Light is not working / Off", "लाइट बंद है / काम नहीं कर रही"), Keywords: []string{"not working", "off", "बंद", "not on", "no light"}},
				{ID: "pole_damaged", Names: names("Pole is damaged / Tilted", "खंभा टूटा / झुका हुआ है"), Keywords: []string{"pole", "tilted", "damaged pole", "broken pole", "खंभा"}},
				{ID: "current_leakage", Names: names("Current leakage / Electric shock hazard", "करंट लग रहा है / बिजली का झटका"), Keywords: []string{"current", "shock", "leakage", "करंट", "electric"}},
				{ID: "flickering", Names: names("Light is flickering", "लाइट टिमटिमा रही है"), Keywords: []string{"flicker", "blink", "on off", "टिमटिमा", "jhilmila"}},
				{ID: "dim_light", Names: names("Light is dim / Low brightness", "लाइट धीमी / कम है"), Keywords: []string{"dim", "low", "dark", "धीमी"}},
				{ID: "wire_issue", Names: names("Wire hanging / Exposed wire", "तार लटक रहा है"), Keywords: []string{"wire", "hanging", "exposed", "तार"}},
			},
		},
		{
			Name:  WaterSupply,
			Code:  "WS",
			Names: map[Language]string{English: "Water Supply", Hindi: "पानी की आपूर्ति"},
			Keywords: map[Language][]string{
				English: {"water", "supply", "pipe", "leakage", "tap", "no water", "dirty water", "water problem"},
				Hindi:   {"पानी", "सप्लाई", "पाइप", "नल", "लीकेज", "pani nahi", "pani band", "pani ganda", "pipeline"},
			},
			Question: map[Language]string{
				English: "Is there no water supply, low pressure, or pipe leakage?",
				Hindi:   "Kya pani nahi aa raha, kam pressure hai, ya pipe leak hai?",
			},
			SubCategories: []SubCategory{
				{ID: "no_water", Names: names("No water supply", "पानी नहीं आ रहा"), Keywords: []string{"no water", "not coming", "नहीं आ", "nahi aa"}},
				{ID: "low_pressure", Names: names("Low water pressure", "पानी का प्रेशर कम है"), Keywords: []string{"pressure", "weak", "slow", "प्रेशर"}},
				{ID: "dirty_water", Names: names("Dirty / Contaminated water", "गंदा / दूषित पानी"), Keywords: []string{"dirty", "brown", "smell", "गंदा", "yellow", "ganda"}},
				{ID: "pipe_leakage", Names: names("Pipe leakage", "पाइप में लीकेज"), Keywords: []string{"leakage", "leak", "broken pipe", "लीकेज"}},
				{ID: "main_line_burst", Names: names("Main water line burst", "मुख्य पानी की लाइन फट गई"), Keywords: []string{"burst", "main line", "big", "फट"}},
				{ID: "irregular_supply", Names: names("Irregular water supply timing", "अनियमित पानी की सप्लाई"), Keywords: []string{"irregular", "timing", "sometimes", "कभी", "kabhi"}},
				{ID: "meter_issue", Names: names("Water meter not working", "वाटर मीटर काम नहीं कर रहा"), Keywords: []string{"meter", "billing", "मीटर"}},
			},
		},
		{
			Name:  Garbage,
			Code:  "GB",
			Names: map[Language]string{English: "Garbage", Hindi: "कचरा"},
			Keywords: map[Language][]string{
				English: {"garbage", "waste", "trash", "rubbish", "dustbin", "sanitation", "dirty", "smell", "cleaning"},
				Hindi:   {"कचरा", "कूड़ा", "गंदगी", "सफाई", "बदबू", "kachra", "kuda", "safai nahi", "gandgi"},
			},
			Question: map[Language]string{
				English: "Is garbage not collected, dustbin overflowing, or bad smell issue?",
				Hindi:   "Kya kachra nahi uthaya gaya, dustbin bhar gaya, ya badbu ki samasya hai?",
			},
			SubCategories: []SubCategory{
				{ID: "not_collected", Names: names("Garbage not collected", "कचरा नहीं उठाया जा रहा"), Keywords: []string{"not collected", "not picked", "नहीं उठा", "nahi uthaya"}},
				{ID: "overflowing_bin", Names: names("Overflowing garbage bin", "कचरा पेटी भर गई है"), Keywords: []string{"overflow", "full", "भर गई", "bhar gaya"}},
				{ID: "illegal_dumping", Names: names("Illegal garbage dumping", "अवैध कचरा डंपिंग"), Keywords: []string{"illegal", "dumping", "throwing", "अवैध"}},
				{ID: "no_dustbin", Names: names("No dustbin in area", "क्षेत्र में डस्टबिन नहीं है"), Keywords: []string{"no dustbin", "no bin", "डस्टबिन नहीं"}},
				{ID: "dead_animal", Names: names("Dead animal on road", "सड़क पर मृत पशु"), Keywords: []string{"animal", "dead", "carcass", "मृत"}},
				{ID: "construction_waste", Names: names("Construction waste / Debris", "निर्माण कचरा / मलबा"), Keywords: []string{"construction", "debris", "rubble", "निर्माण", "मलबा"}},
			},
		},
		{
			Name:  RoadDamage,
			Code:  "RD",
			Names: map[Language]string{English: "Road Damage", Hindi: "सड़क क्षति"},
			Keywords: map[Language][]string{
				English: {"road", "pothole", "damage", "crack", "street", "broken road", "pit", "hole", "asphalt"},
				Hindi:   {"सड़क", "गड्ढा", "टूटी सड़क", "रास्ता", "खराब सड़क", "sadak", "gadda", "road kharab", "road toota"},
			},
			Question: map[Language]string{
				English: "Is there a pothole, road crack, or waterlogging on the road?",
				Hindi:   "Kya sadak mein gadda hai, daraar hai, ya pani jamaa hai?",
			},
			SubCategories: []SubCategory{
				{ID: "pothole", Names: names("Pothole on road", "सड़क पर गड्ढा"), Keywords: []string{"pothole", "hole", "गड्ढा", "pit", "gadda"}},
				{ID: "road_broken", Names: names("Road surface broken / Damaged", "सड़क टूटी / खराब"), Keywords: []string{"broken", "damaged", "crack", "टूट", "daraar"}},
				{ID: "waterlogging", Names: names("Water logging on road", "सड़क पर पानी भर जाता है"), Keywords: []string{"water", "logging", "flood", "पानी भर", "pani jamaa"}},
				{ID: "footpath_damaged", Names: names("Footpath / Sidewalk damaged", "फुटपाथ खराब है"), Keywords: []string{"footpath", "sidewalk", "pavement", "फुटपाथ"}},
				{ID: "divider_damaged", Names: names("Road divider damaged", "डिवाइडर खराब है"), Keywords: []string{"divider", "median", "डिवाइडर"}},
				{ID: "speed_breaker", Names: names("Speed breaker issue", "स्पीड ब्रेकर समस्या"), Keywords: []string{"speed breaker", "bump", "स्पीड ब्रेकर"}},
			},
		},
		{
			Name:  Drainage,
			Code:  "DR",
			Names: map[Language]string{English: "Drainage", Hindi: "नाली"},
			Keywords: map[Language][]string{
				English: {"drain", "drainage", "sewer", "gutter", "blocked drain", "overflow", "manhole", "sewage"},
				Hindi:   {"नाली", "गटर", "सीवर", "मैनहोल", "उभरना", "बहाव", "naali", "gatar"},
			},
			Question: map[Language]string{
				English: "Is the drain blocked, overflowing, or is a manhole open?",
				Hindi:   "Kya naali band hai, ubhar rahi hai, ya manhole khula hai?",
			},
			SubCategories: []SubCategory{
				{ID: "drain_blocked", Names: names("Drain is blocked", "नाली बंद है"), Keywords: []string{"blocked", "clogged", "not flowing", "बंद"}},
				{ID: "drain_overflow", Names: names("Drain overflowing", "नाली उभर रही है"), Keywords: []string{"overflow", "full", "उभर", "ubhar"}},
				{ID: "no_drain", Names: names("No drainage system", "नाली व्यवस्था नहीं है"), Keywords: []string{"no drain", "missing", "नहीं है"}},
				{ID: "bad_smell", Names: names("Bad smell from drain", "नाली से बदबू आ रही है"), Keywords: []string{"smell", "stink", "बदबू", "badbu"}},
				{ID: "manhole_open", Names: names("Manhole cover missing / Open", "मैनहोल खुला है"), Keywords: []string{"manhole", "open", "cover", "मैनहोल"}},
			},
		},
		{
			Name:  Sanitation,
			Code:  "SN",
			Names: map[Language]string{English: "Sanitation", Hindi: "स्वच्छता"},
			Keywords: map[Language][]string{
				English: {"toilet", "urinal", "urination", "defecation", "mosquito", "stagnant"},
				Hindi:   {"शौचालय", "पेशाब", "मच्छर", "स्वच्छता", "shauchalay", "peshab", "machhar"},
			},
			Question: map[Language]string{
				English: "Is it a public toilet, open defecation, or stagnant water and mosquito issue?",
				Hindi:   "Kya yeh shauchalay, khule mein shauch, ya ruke hue pani aur machhar ki samasya hai?",
			},
			SubCategories: []SubCategory{
				{ID: "public_toilet", Names: names("Public toilet cleaning required", "सार्वजनिक शौचालय सफाई आवश्यक"), Keywords: []string{"toilet", "shauchalay", "शौचालय"}},
				{ID: "open_defecation", Names: names("Open defecation issue", "खुले में शौच समस्या"), Keywords: []string{"defecation", "शौच", "khule mein"}},
				{ID: "mosquito_breeding", Names: names("Mosquito breeding / Stagnant water", "मच्छर प्रजनन / रुका हुआ पानी"), Keywords: []string{"mosquito", "stagnant", "मच्छर", "machhar"}},
				{ID: "public_place_dirty", Names: names("Public place is dirty", "सार्वजनिक स्थान गंदा है"), Keywords: []string{"public place", "dirty", "गंदा"}},
				{ID: "urination_spot", Names: names("Public urination spot", "सार्वजनिक पेशाब स्थल"), Keywords: []string{"urination", "urinal", "पेशाब", "peshab"}},
			},
		},
		{
			Name:     Other,
			Code:     "OT",
			Names:    map[Language]string{English: "Other", Hindi: "अन्य"},
			Keywords: map[Language][]string{},
			Question: map[Language]string{
				English: "Please briefly describe your issue.",
				Hindi:   "Kripya apni samasya ka varnan karein.",
			},
			SubCategories: []SubCategory{
				{ID: "tree_fallen", Names: names("Tree fallen / Dangerous tree", "पेड़ गिर गया / खतरनाक पेड़"), Keywords: []string{"tree", "पेड़", "ped gir"}},
				{ID: "mosquito", Names: names("Mosquito breeding", "मच्छर पैदा हो रहे हैं"), Keywords: []string{"mosquito", "मच्छर"}},
				{ID: "stray_animals", Names: names("Stray animal nuisance", "आवारा पशुओं की समस्या"), Keywords: []string{"stray", "dog", "cattle", "आवारा"}},
				{ID: "encroachment", Names: names("Illegal encroachment", "अवैध अतिक्रमण"), Keywords: []string{"encroachment", "अतिक्रमण"}},
				{ID: "general", Names: names("Other / General complaint", "अन्य / सामान्य शिकायत")},
			},
		},
	}
}

func names(en, hi string) map[Language]string {
	return map[Language]string{English: en, Hindi: hi}
}

func defaultZones() []Zone {
	return []Zone{
		{Name: "North", ID: "N", Names: names("North", "उत्तर"), Synonyms: []string{"north", "उत्तर", "uttar"}},
		{Name: "South", ID: "S", Names: names("South", "दक्षिण"), Synonyms: []string{"south", "दक्षिण", "dakshin"}},
		{Name: "East", ID: "E", Names: names("East", "पूर्व"), Synonyms: []string{"east", "पूर्व", "purv"}},
		{Name: "West", ID: "W", Names: names("West", "पश्चिम"), Synonyms: []string{"west", "पश्चिम", "pashchim"}},
		{Name: "Central", ID: "C", Names: names("Central", "मध्य"), Synonyms: []string{"central", "मध्य", "madhya", "center"}},
	}
}

func defaultAreas() []Area {
	return []Area{
		{"alkapuri", "Ward 1", "Central"},
		{"sayajigunj", "Ward 1", "Central"},
		{"fatehgunj", "Ward 2", "Central"},
		{"race course", "Ward 1", "Central"},
		{"mandvi", "Ward 11", "Central"},
		{"raopura", "Ward 11", "Central"},
		{"lehripura", "Ward 16", "Central"},
		{"wadi", "Ward 2", "Central"},

		{"akota", "Ward 3", "North"},
		{"vasna", "Ward 3", "North"},
		{"karelibaug", "Ward 4", "North"},
		{"gotri", "Ward 12", "North"},
		{"subhanpura", "Ward 17", "North"},
		{"manjalpur", "Ward 4", "North"},
		{"old padra road", "Ward 12", "North"},

		{"harni", "Ward 5", "East"},
		{"waghodia road", "Ward 5", "East"},
		{"gorwa", "Ward 6", "East"},
		{"makarpura", "Ward 13", "East"},
		{"tandalja", "Ward 19", "East"},
		{"sama", "Ward 6", "East"},

		{"chhani", "Ward 7", "South"},
		{"vadsar", "Ward 8", "South"},
		{"bapod", "Ward 14", "South"},
		{"atladara", "Ward 18", "South"},
		{"tarsali", "Ward 7", "South"},
		{"nagarwada", "Ward 8", "South"},

		{"productivity road", "Ward 9", "West"},
		{"ajwa road", "Ward 10", "West"},
		{"nizampura", "Ward 15", "West"},
		{"dabhoi road", "Ward 9", "West"},
		{"navapura", "Ward 10", "West"},
		{"vadiwadi", "Ward 15", "West"},
	}
}

func defaultPriorities() map[priorityKey]Priority {
	return map[priorityKey]Priority{
		{StreetLight, "current_leakage"}: PriorityHigh,
		{StreetLight, "wire_issue"}:      PriorityHigh,
		{WaterSupply, "main_line_burst"}: PriorityHigh,
		{RoadDamage, "waterlogging"}:     PriorityHigh,
		{Drainage, "drain_overflow"}:     PriorityHigh,
		{Drainage, "manhole_open"}:       PriorityHigh,

		{StreetLight, "pole_damaged"}: PriorityMedium,
		{WaterSupply, "no_water"}:     PriorityMedium,
		{RoadDamage, "pothole"}:       PriorityMedium,
		{Garbage, "dead_animal"}:      PriorityMedium,
		{Drainage, "drain_blocked"}:   PriorityMedium,
	}
}
