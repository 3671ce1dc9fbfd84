// Package translation translates ranked word lists into other languages
// using the OpenAI or Gemini APIs. It includes a translation cache shared
// between concurrent lookups and writes the resulting translation table
// as CSV.
package translation
