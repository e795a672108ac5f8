package classify

// Default word lists. Loaded once at process start; callers that need
// different lists (tests, other locales) construct classifiers with
// their own.

var defaultPositiveWords = []string{
	// English
	"good", "great", "excellent", "amazing", "awesome", "wonderful",
	"fantastic", "friendly", "helpful", "accessible", "clean", "love",
	"loved", "nice", "perfect", "recommend", "recommended", "comfortable",
	"welcoming", "easy", "best", "pleasant", "kind", "attentive", "smooth",
	// Spanish
	"bueno", "buena", "excelente", "genial", "increible", "accesible",
	"limpio", "limpia", "amable", "recomendado", "recomendable", "perfecto",
	"perfecta", "comodo", "comoda", "agradable", "mejor",
}

var defaultNegativeWords = []string{
	// English
	"bad", "terrible", "awful", "horrible", "dirty", "rude", "worst",
	"broken", "inaccessible", "unusable", "slow", "never", "disappointing",
	"disappointed", "unfriendly", "unhelpful", "blocked", "dangerous",
	"uncomfortable", "impossible", "poor", "hate", "hated", "avoid",
	// Spanish
	"malo", "mala", "pesimo", "pesima", "horrible", "sucio", "sucia",
	"grosero", "grosera", "roto", "rota", "inaccesible", "peligroso",
	"peligrosa", "incomodo", "incomoda", "peor", "nunca", "evitar",
}

var defaultBlockedTerms = []string{
	// English
	"idiot", "idiots", "stupid", "moron", "morons", "dumbass", "scum",
	"trash", "garbage", "crap", "bastard", "bastards", "jerk", "jerks",
	"loser", "losers",
	// Spanish
	"basura", "idiota", "idiotas", "estupido", "estupida", "imbecil",
	"imbeciles", "tonto", "tonta", "mierda", "porqueria", "inutil",
	"inutiles",
}
