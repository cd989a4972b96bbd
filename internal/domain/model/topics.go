package model

// Topic группа вопросов с общим кодом темы. Не хранится отдельно, строится из вопросов.
type Topic struct {
	Code      string
	Name      string
	Questions []Question
}
