package repository

import "errors"

var ErrNotFound = errors.New("запись не найдена")

// ErrStateConflict — сущность уже не в том состоянии, которое нужно операции
// (например, задача перестала быть open между чтением и транзакцией)
var ErrStateConflict = errors.New("конфликт состояния")

var ErrDuplicate = errors.New("запись уже существует")
