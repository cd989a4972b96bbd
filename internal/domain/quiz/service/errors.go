package service

import "errors"

var (
	// ErrNoArguments команда /quiz вызвана без темы
	ErrNoArguments = errors.New("no topic selector given")
	// ErrUnknownTopic тема не найдена ни по коду, ни по названию
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrAlreadyRunning в чате уже идет викторина
	ErrAlreadyRunning = errors.New("quiz already running")
	// ErrNoActiveQuiz в чате нет активной викторины
	ErrNoActiveQuiz = errors.New("no active quiz")
)
