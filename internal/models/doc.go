// Package models lists the OpenAI models that can be used to translate
// word lists.
package models
