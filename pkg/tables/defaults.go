package tables

import "strings"

func lower(s string) string { return strings.ToLower(s) }

// Guard signatures. Injection signatures are matched anywhere in the query,
// including mid-string after legitimate-looking text. Non-domain phrases are
// anchored to the start of a query or clause, except for conversational
// request forms ("tell me ...") that stay off-topic wherever they appear.
var injectionSignatures = []string{
	`(?i)\[/?inst\]`,
	`<\|im_(start|end)\|>`,
	`(?i)<<\s*/?sys\s*>>`,
	`(?i)</?(system|assistant)>`,
	`(?im)^\s*(system|assistant)\s*:`,
	`(?i)\bignore\s+(all\s+|any\s+)?(previous\s+|prior\s+|above\s+|earlier\s+)?(instructions?|prompts?|rules?|context)\b`,
	`(?i)\bdisregard\s+(all\s+|previous\s+|your\s+)?(instructions?|rules?|guidelines)\b`,
	`(?i)\bforget\s+(everything|all previous)\b`,
	`(?i)\byou\s+are\s+now\s+(a|an|in)\b`,
	`(?i)\bnew\s+instructions?\s*:`,
	`\{\{[^}]*\}\}`,
	`\{%[^%]*%\}`,
	`\$\{[^}]*\}`,
	`<!--`,
	`-->`,
	`<!\[CDATA\[`,
	`\]\]>`,
	`(?i)'\s*(or|and)\s+\S+\s*=`,
	`(?i)\b1\s*=\s*1\b`,
	`(?i)\bunion\s+select\b`,
	`(?i);\s*drop\s+table\b`,
}

var nonDomainPhrases = []string{
	`(?i)^\s*(what('?s| is) the )?(weather|forecast)\b`,
	`(?i)\btell me (about )?the (weather|forecast|news)\b`,
	`(?i)\btell me a (joke|story|riddle)\b`,
	`(?i)^\s*what('?s| is) (the )?(bitcoin|btc|eth|crypto|stock|share) (price|worth)\b`,
	`(?i)^\s*(bitcoin|btc|eth|crypto|stock) price\b`,
	`(?i)^\s*(write|compose) (me )?(a |an )?(poem|essay|story|song|haiku)\b`,
	`(?i)^\s*who (is|was) (the )?(president|prime minister|king|queen|ceo)\b`,
	`(?i)^\s*who won\b`,
	`(?i)^\s*what('?s| is) the capital of\b`,
	`(?i)^\s*(translate|conjugate)\b`,
	`(?i)^\s*how (are you|old are you)\b`,
	`(?i)^\s*what('?s| is) (a |an |the )?(best )?(recipe|movie|film|song)\b`,
	`(?i)^\s*(latest |today'?s )?(news|headlines)\b`,
	`(?i)^\s*(sports?|football|soccer|nba|nfl) (scores?|results?)\b`,
	`(?i)^\s*(lottery numbers?|horoscope)\b`,
}

// Coordinating conjunctions used for clause splitting.
var conjunctions = []string{"and", "also", "then", "plus", "btw"}

// Politeness affixes stripped before cascade matching. Plain lowercase
// strings, matched at word boundaries; longest forms are tried first.
var politenessPrefixes = []string{
	"please", "pls", "plz",
	"hi", "hey", "hello",
	"good morning", "good afternoon", "good evening",
	"kindly",
	"would you mind", "would you", "could you", "can you", "can u", "will you",
}

var politenessSuffixes = []string{
	"if you can", "if possible", "if you don't mind",
	"would you mind", "when you get a chance",
	"thanks", "thank you", "please",
}

// Lane cascade pattern families, all matched against the
// politeness-stripped query.

// Elliptical commands: verbless fragments conventionally understood as an
// action request. Full-query matches only.
var ellipticalPatterns = []string{
	`(?i)^wos?$`,
	`(?i)^(open |overdue |my )?work ?orders?$`,
	`(?i)^open wos?$`,
	`(?i)^(daily ?log|deck log)$`,
	`(?i)^handover$`,
	`(?i)^checklist$`,
	`(?i)^(inventory|stock) (low|check)$`,
	`(?i)^overdue$`,
	`(?i)^(ppm|pms) (due|list)$`,
	`(?i)^spares? list$`,
}

// Implicit actions: statements that imply a mutation without an explicit
// verb, conventionally logged as completed work or a new job.
var implicitActionPatterns = []string{
	`(?i)\b(is|are)\s+(now\s+)?(fixed|repaired|sorted|done|completed?|back (online|up)|operational)\b`,
	`(?i)^(just\s+)?(finished|completed|replaced|changed|serviced|greased|cleaned|swapped|topped (up|off))\b`,
	`(?i)\b(swapped|replaced|installed|fitted)\s+(the\s+|a\s+)?new\b`,
	`(?i)\bneeds?\s+(a\s+|an\s+)?(service|servicing|replacement|overhaul|new)\b`,
}

// Explicit commands: imperative verb followed by at least one more word.
var commandPatterns = []string{
	`(?i)^(create|open|raise|add|log|record|mark|close|complete|schedule|assign|order|reorder|update|renew|book)\s+\S+`,
}

// Direct lookups: a query that is essentially a structured identifier.
var lookupIdentifierPattern = `(?i)^\s*(wo[-#\s]?\d{3,6}|e-?\d{2,4}|err\s?\d{2,4}|spn\s?\d{3,5}(\s?fmi\s?\d{1,2})?|p\d{4}|al\s?\d{2,4}|[a-z]{2,4}-\d{3,5})\s*\??\s*$`

// Direct lookups: simple retrieval phrasing with no mutation verb, or a
// work-order number appearing anywhere.
var lookupPhrasePatterns = []string{
	`(?i)^(show|find|list|display|lookup|look up|get|fetch|search)\b`,
	`(?i)^(where('?s| is| are)|how many|how much)\b`,
	`(?i)^(specs?|manual|part number|status|history|hours) (for|of|on)\b`,
	`(?i)\bwo[-#]?\d{3,6}\b`,
	`(?i)\bin stock\b`,
}

// Diagnostic vocabulary: abnormal-state words anywhere in the query.
var problemWordPattern = `(?i)\b(overheat(s|ing)?|leak(s|ing|ed)?|vibrat(es|ing|ion)|fail(s|ed|ing|ure)?|broken|faulty|smok(e|ing)|stall(s|ed|ing)?|trip(s|ped|ping)|alarm(s|ing)?|nois(e|y)|degraded|abnormal|erratic|surg(e|es|ing)|misfir(e|es|ing)|grind(s|ing)|knock(s|ing)|rattl(e|es|ing)|overpressure|low pressure|high temp(erature)?|won'?t (start|run|stop|hold)|not (working|starting|charging|cooling|priming))\b`

// Temporal context: phrasing that signals a recurring or ongoing fault.
var temporalContextPatterns = []string{
	`(?i)\b(happening|doing (it|this)|acting up) again\b`,
	`(?i)\bkeeps? (on )?\w+ing\b`,
	`(?i)\bintermittent(ly)?\b`,
	`(?i)\bstill (not|won'?t|isn'?t|doesn'?t)\b`,
	`(?i)\b(recurring|recurrent|every time|once again)\b`,
	`(?i)\bstarted (happening|again)\b`,
}

// Explicit diagnosis intent.
var diagnosisIntentPatterns = []string{
	`(?i)\b(diagnos(e|is|tics?)|troubleshoot(ing)?|root cause)\b`,
	`(?i)\bwhy (is|are|does|do|won'?t|isn'?t|aren'?t)\b`,
	`(?i)\bwhat('?s| is) (wrong|causing|the cause)\b`,
	`(?i)\bcould (it|this|that) be\b`,
}

// Entity dictionaries: surface form -> canonical identifier. Keys are
// matched case-insensitively at word boundaries.
var equipmentAliases = map[string]string{
	"main engine 1":         "MAIN_ENGINE_1",
	"main engine one":       "MAIN_ENGINE_1",
	"me1":                   "MAIN_ENGINE_1",
	"me 1":                  "MAIN_ENGINE_1",
	"port main engine":      "MAIN_ENGINE_1",
	"port engine":           "MAIN_ENGINE_1",
	"main engine 2":         "MAIN_ENGINE_2",
	"main engine two":       "MAIN_ENGINE_2",
	"me2":                   "MAIN_ENGINE_2",
	"me 2":                  "MAIN_ENGINE_2",
	"starboard main engine": "MAIN_ENGINE_2",
	"stbd main engine":      "MAIN_ENGINE_2",
	"starboard engine":      "MAIN_ENGINE_2",
	"main engine":           "MAIN_ENGINE",
	"cat 3512":              "CAT_3512",
	"caterpillar 3512":      "CAT_3512",
	"generator 1":           "GENERATOR_1",
	"gen 1":                 "GENERATOR_1",
	"gen1":                  "GENERATOR_1",
	"genset 1":              "GENERATOR_1",
	"dg1":                   "GENERATOR_1",
	"generator 2":           "GENERATOR_2",
	"gen 2":                 "GENERATOR_2",
	"gen2":                  "GENERATOR_2",
	"genset 2":              "GENERATOR_2",
	"dg2":                   "GENERATOR_2",
	"generator":             "GENERATOR",
	"genset":                "GENERATOR",
	"genny":                 "GENERATOR",
	"emergency generator":   "EMERGENCY_GENERATOR",
	"emergency gen":         "EMERGENCY_GENERATOR",
	"bilge pump":            "BILGE_PUMP",
	"bilge manifold":        "BILGE_PUMP",
	"watermaker":            "WATERMAKER",
	"water maker":           "WATERMAKER",
	"fresh water generator": "WATERMAKER",
	"fwg":                   "WATERMAKER",
	"ac":                    "HVAC",
	"a/c":                   "HVAC",
	"aircon":                "HVAC",
	"air con":               "HVAC",
	"air conditioning":      "HVAC",
	"hvac":                  "HVAC",
	"chiller":               "CHILLER",
	"bow thruster":          "BOW_THRUSTER",
	"stern thruster":        "STERN_THRUSTER",
	"thruster":              "BOW_THRUSTER",
	"steering gear":         "STEERING_GEAR",
	"sewage plant":          "SEWAGE_TREATMENT_PLANT",
	"stp":                   "SEWAGE_TREATMENT_PLANT",
	"black water plant":     "SEWAGE_TREATMENT_PLANT",
	"oily water separator":  "OILY_WATER_SEPARATOR",
	"ows":                   "OILY_WATER_SEPARATOR",
	"air compressor":        "AIR_COMPRESSOR",
	"compressor":            "AIR_COMPRESSOR",
	"windlass":              "WINDLASS",
	"crane":                 "DECK_CRANE",
	"davit":                 "DAVIT",
	"stabilizer":            "STABILIZERS",
	"stabilizers":           "STABILIZERS",
	"stabiliser":            "STABILIZERS",
	"stabilisers":           "STABILIZERS",
	"gearbox":               "GEARBOX",
	"reduction gear":        "GEARBOX",
	"turbocharger":          "TURBOCHARGER",
	"turbo":                 "TURBOCHARGER",
	"boiler":                "BOILER",
	"incinerator":           "INCINERATOR",
}

var systemNames = map[string]string{
	"fuel system":         "FUEL_SYSTEM",
	"fuel oil system":     "FUEL_SYSTEM",
	"cooling system":      "COOLING_SYSTEM",
	"fresh water cooling": "COOLING_SYSTEM",
	"sea water cooling":   "SW_COOLING_SYSTEM",
	"raw water system":    "SW_COOLING_SYSTEM",
	"hydraulic system":    "HYDRAULIC_SYSTEM",
	"hydraulics":          "HYDRAULIC_SYSTEM",
	"electrical system":   "ELECTRICAL_SYSTEM",
	"shore power":         "SHORE_POWER",
	"fire main":           "FIRE_MAIN",
	"fire system":         "FIRE_MAIN",
	"exhaust system":      "EXHAUST_SYSTEM",
	"lube oil system":     "LUBE_OIL_SYSTEM",
	"lub oil system":      "LUBE_OIL_SYSTEM",
	"ballast system":      "BALLAST_SYSTEM",
	"bilge system":        "BILGE_SYSTEM",
	"black water system":  "BLACK_WATER_SYSTEM",
	"grey water system":   "GREY_WATER_SYSTEM",
	"steering system":     "STEERING_SYSTEM",
	"fresh water system":  "FRESH_WATER_SYSTEM",
}

var partNames = map[string]string{
	"impeller":        "IMPELLER",
	"injector":        "INJECTOR",
	"fuel filter":     "FUEL_FILTER",
	"oil filter":      "OIL_FILTER",
	"air filter":      "AIR_FILTER",
	"filter":          "FILTER",
	"gasket":          "GASKET",
	"mechanical seal": "MECHANICAL_SEAL",
	"seal":            "SEAL",
	"v-belt":          "V_BELT",
	"v belt":          "V_BELT",
	"belt":            "V_BELT",
	"anode":           "ANODE",
	"zinc anode":      "ANODE",
	"zincs":           "ANODE",
	"thermostat":      "THERMOSTAT",
	"solenoid":        "SOLENOID",
	"coupling":        "COUPLING",
	"bearing":         "BEARING",
	"o-ring":          "O_RING",
	"oring":           "O_RING",
	"o ring":          "O_RING",
	"membrane":        "RO_MEMBRANE",
	"heat exchanger":  "HEAT_EXCHANGER",
	"relief valve":    "RELIEF_VALVE",
	"check valve":     "CHECK_VALVE",
	"strainer":        "STRAINER",
	"sensor":          "SENSOR",
	"pressure sensor": "PRESSURE_SENSOR",
	"temp sensor":     "TEMPERATURE_SENSOR",
}

var maritimeTerms = map[string]string{
	"engine room": "ENGINE_ROOM",
	"bridge":      "BRIDGE",
	"galley":      "GALLEY",
	"lazarette":   "LAZARETTE",
	"bilge":       "BILGE",
	"hull":        "HULL",
	"deck":        "DECK",
	"stern":       "STERN",
	"bow":         "BOW",
	"aft":         "AFT",
	"starboard":   "STARBOARD",
	"port side":   "PORT_SIDE",
	"keel":        "KEEL",
	"mooring":     "MOORING",
	"anchor":      "ANCHOR",
	"tender":      "TENDER",
	"underway":    "UNDERWAY",
	"dry dock":    "DRY_DOCK",
	"sea trial":   "SEA_TRIAL",
	"sea trials":  "SEA_TRIAL",
}

// Fault code conventions. Canonical form is the uppercased match with
// internal whitespace and dashes removed.
var faultCodePatterns = []string{
	`(?i)\be-?\d{2,4}\b`,
	`(?i)\bspn\s?\d{3,5}(\s?fmi\s?\d{1,2})?\b`,
	`(?i)\bp\d{4}\b`,
	`(?i)\berr\s?\d{2,4}\b`,
	`(?i)\bal\s?\d{2,4}\b`,
}

// Physical measurements: value plus unit. Longest unit spellings first so
// the alternation prefers them.
var measurementPattern = `(?i)\b\d+(\.\d+)?\s?(degrees\s?[cf]|deg\s?[cf]|celsius|fahrenheit|volts?|kva|kv|kw|amps?|hz|rpm|psi|mbar|bar|kpa|l/h|lph|gph|hours?|hrs?|°\s?[cf]|v|a|%)`

var unitForms = map[string]string{
	"v":    "V", "volt": "V", "volts": "V",
	"kv":   "kV", "kva": "kVA", "kw": "kW",
	"a":    "A", "amp": "A", "amps": "A",
	"hz":   "Hz", "rpm": "RPM",
	"psi":  "PSI", "bar": "bar", "mbar": "mbar", "kpa": "kPa",
	"°c":   "°C", "° c": "°C", "deg c": "°C", "degrees c": "°C", "celsius": "°C",
	"°f":   "°F", "° f": "°F", "deg f": "°F", "degrees f": "°F", "fahrenheit": "°F",
	"l/h":  "L/h", "lph": "L/h", "gph": "GPH",
	"hour": "h", "hours": "h", "hr": "h", "hrs": "h",
	"%":    "%",
}

// Fixed per-type importance weights. Not learned, not query-dependent.
var typeWeights = map[string]float64{
	"fault_code":    1.0,
	"equipment":     0.95,
	"system":        0.90,
	"measurement":   0.85,
	"part":          0.80,
	"maritime_term": 0.75,
}
