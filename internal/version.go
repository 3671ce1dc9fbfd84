package internal

// Version is the current wikifreq release
const Version = "0.3.0"
