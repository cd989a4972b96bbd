package model

// Question представляет вопрос викторины с вариантами ответа
type Question struct {
	Text      string   `json:"question" yaml:"question"`
	Options   []string `json:"options" yaml:"options"`
	Answer    int      `json:"answer" yaml:"answer"`
	TopicCode string   `json:"topic_code" yaml:"topic_code"`
	TopicName string   `json:"topic_name" yaml:"topic_name"`
}

// Valid проверяет, что индекс правильного ответа указывает на существующий вариант
func (q Question) Valid() bool {
	return q.Answer >= 0 && q.Answer < len(q.Options)
}

// CorrectOption возвращает текст правильного варианта
func (q Question) CorrectOption() string {
	if !q.Valid() {
		return ""
	}
	return q.Options[q.Answer]
}
