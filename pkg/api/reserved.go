package api

var reservedWords = map[Language]map[string]bool{
	LanguageJavaScript: wordSet(
		"abstract", "arguments", "await", "boolean", "break", "byte", "case",
		"catch", "char", "class", "const", "continue", "debugger", "default",
		"delete", "do", "double", "else", "enum", "eval", "export", "extends",
		"false", "final", "finally", "float", "for", "function", "goto", "if",
		"implements", "import", "in", "instanceof", "int", "interface", "let",
		"long", "native", "new", "null", "package", "private", "protected",
		"public", "return", "short", "static", "super", "switch",
		"synchronized", "this", "throw", "throws", "transient", "true", "try",
		"typeof", "var", "void", "volatile", "while", "with", "yield",
	),
	LanguageTypeScript: wordSet(
		"any", "as", "boolean", "break", "case", "catch", "class", "const",
		"constructor", "continue", "declare", "default", "delete", "do", "else",
		"enum", "export", "extends", "false", "finally", "for", "from",
		"function", "get", "if", "implements", "import", "in", "instanceof",
		"interface", "let", "module", "new", "null", "number", "of", "package",
		"private", "protected", "public", "require", "return", "set", "static",
		"string", "super", "switch", "symbol", "this", "throw", "true", "try",
		"type", "typeof", "var", "void", "while", "with", "yield",
	),
	LanguageReScript: wordSet(
		"and", "as", "assert", "constraint", "else", "exception", "external",
		"false", "for", "if", "in", "include", "lazy", "let", "module",
		"mutable", "of", "open", "rec", "switch", "true", "try", "type", "when",
		"while", "with",
	),
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// IsReservedWord reports whether word cannot be used as an identifier in lang.
func IsReservedWord(lang Language, word string) bool {
	return reservedWords[lang][word]
}
