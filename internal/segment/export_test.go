package segment

// Internal functions exposed for black-box testing.
var SplitSentences = splitSentences
