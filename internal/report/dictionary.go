package report

import "github.com/dgallion1/qbank/internal/bank"

// DefaultRanges are the topic tags of the 2023 driving theory bank, by
// question number.
var DefaultRanges = []RangeRule{
	{From: 187, To: 361, Add: []string{"#traffic", TagPic}},
	{From: 362, To: 521, Add: []string{"#safe-driving", TagPic}},
	{From: 522, To: 630, Add: []string{"#traffic-signs", TagPic}},
	{From: 631, To: 899, Add: []string{"#traffic-signs", "#traffic-lights", TagPic}},
	{From: 900, To: 926, Add: []string{"#law"}},
	{From: 927, To: 969, Add: []string{"#traffic-signs", TagPic}},
	{From: 970, To: 973, Add: []string{"#law"}},
}

// DefaultTypeRanges are the expected question types of the same bank.
var DefaultTypeRanges = []TypeRange{
	{From: 1, To: 104, Type: bank.TypeRow},
	{From: 105, To: 186, Type: bank.TypeMCQ},
	{From: 187, To: 361, Type: bank.TypeRow},
	{From: 362, To: 521, Type: bank.TypeMCQ},
}

// DefaultDictionary holds keyword rules for tag suggestions.
var DefaultDictionary = []DictEntry{
	{Tag: "#license", Keywords: []string{
		"driving license", "driver's license", "permit", "probation period",
		"validity period", "replacement", "renewal", "reissue", "lost",
		"inspection", "physical examination", "revocation", "category", "vehicle type",
		"apply for", "application", "pass mark", "testing requirements",
	}},
	{Tag: "#vehicle-registration", Keywords: []string{
		"registration", "transfer", "mortgage", "revocation of registration",
		"license plate", "vehicle license", "temporary plate", "temporary license plate",
		"destroy", "loss", "damage", "inspection",
	}},
	{Tag: "#accidents", Keywords: []string{
		"traffic accident", "accident scene", "scene handling", "report to the police",
		"reporting", "negotiation", "voluntary negotiation", "leave the scene",
		"expressway accident", "injury", "collision",
	}},
	{Tag: "#violations-penalties", Keywords: []string{
		"violation", "violations", "punishment", "fine", "penalty", "detain",
		"detaining", "illegal", "drunk", "drinking", "alcohol", "drug", "medicine",
		"overloaded", "over-seated", "over seated", "forgery", "fraud",
	}},
	{Tag: "#points-system", Keywords: []string{
		"penalty points", "point recording", "point deduction", "deduction standard",
		"points system",
	}},
	{Tag: "#traffic-lights", Keywords: []string{
		"red light", "green light", "yellow light", "signal light", "lane signal",
		"arrow signal", "arrow shape", "flashing yellow", "hazard light",
		"level crossing", "traffic signal lights",
	}},
	{Tag: "#traffic-signs", Keywords: []string{
		"traffic sign", "warning sign", "prohibitive sign", "indicative sign",
		"directional sign", "tourist area sign",
	}},
	{Tag: "#road-markings", Keywords: []string{
		"road marking", "markings", "solid line", "broken line", "zebra crossing",
		"crosswalk", "stop line", "lane line",
	}},
	{Tag: "#police-hand-signals", Keywords: []string{
		"traffic police", "hand signal", "stop signal", "going-straight",
		"left turn", "right turn", "lane changing", "slowdown", "pull over",
	}},
	{Tag: "#expressway", Keywords: []string{
		"expressway", "motorway", "highway", "breakdown", "breakdown vehicle",
		"warning triangle", "hazard warning", "emergency lane", "hard shoulder",
	}},
	{Tag: "#parking", Keywords: []string{
		"parking", "park", "pull over", "stop at the roadside", "stopping",
	}},
	{Tag: "#right-of-way", Keywords: []string{
		"yield", "give way", "right of way", "special vehicles", "maintenance vehicles",
		"ambulance", "fire engine", "police car",
	}},
	{Tag: "#law", Keywords: []string{
		"laws", "rules and regulations", "legal responsibility", "rights and obligations",
		"procedural regulations", "handling violations",
	}},
	{Tag: "#vehicle-basics", Keywords: []string{
		"instrument", "indicator", "alarm light", "engine oil pressure", "low fuel",
		"water temperature", "low-beam", "high-beam", "seatbelt light",
		"steering wheel", "clutch", "brake pedal", "accelerator", "gear lever",
		"handbrake", "ignition switch", "windscreen wiper", "defrost", "defog",
		"abs", "srs", "headrest", "seatbelt",
	}},
}
