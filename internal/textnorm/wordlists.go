package textnorm

// defaultExclusions are generic/domain-noise words dropped before any
// linguistic processing. Matched as substrings of lowercased words.
var defaultExclusions = []string{
	"format", "programm", "exemple", "text", "data", "tutorial", "lecture",
	"cours", "niveau", "objectif", "module", "distance", "lieu", "qui",
	"quoi", "comment", "pourquoi", "où", "combien", "lequel",
	"chaque", "tout", "aucun", "tous", "quel", "cela", "ça",
	"celui", "autre", "même", "quelque", "ni", "sur",
}

// defaultStopWords is the French stop-word list, stored accent-folded
// because tokens are folded before lookup.
var defaultStopWords = []string{
	"a", "ai", "aie", "ainsi", "alors", "apres", "as", "au", "aussi",
	"autant", "aux", "avaient", "avait", "avant", "avec", "avez", "avoir",
	"avons", "ayant", "c", "car", "ce", "ceci", "cependant", "ces", "cet",
	"cette", "chez", "comme", "d", "dans", "de", "deja", "depuis", "des",
	"desquels", "dont", "donc", "du", "elle", "elles", "en", "encore",
	"enfin", "entre", "es", "est", "et", "etaient", "etais", "etait",
	"etant", "ete", "etes", "etre", "eu", "eux", "fait", "fois", "fut",
	"grace", "ici", "il", "ils", "j", "jamais", "je", "jusqu", "l", "la",
	"le", "les", "leur", "leurs", "lors", "lui", "m", "ma", "mais", "me",
	"mes", "moi", "moins", "mon", "n", "ne", "nos", "notre", "nous", "on",
	"ont", "ou", "par", "parce", "pas", "pendant", "peu", "peut", "plus",
	"pour", "pres", "puis", "qu", "que", "s", "sa", "sans", "se", "selon",
	"sera", "serait", "seront", "ses", "si", "soi", "soit", "sommes",
	"son", "sont", "sous", "suis", "t", "ta", "tant", "te", "tes", "toi",
	"ton", "tres", "tu", "un", "une", "vers", "vos", "votre", "vous", "y",
}
