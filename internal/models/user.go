// Package models содержит доменные структуры портала хостинг-провайдера:
// пользователей, хостинговые услуги, домены и счета,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет клиента хостинг-провайдера.
// Ядро никогда не изменяет и не удаляет пользователей — только ссылается на них.
type User struct {
	UID       string    `json:"uid"`        // Уникальный идентификатор пользователя
	Email     string    `json:"email"`      // Электронная почта (уникальная)
	FullName  string    `json:"full_name"`  // Полное имя пользователя
	Role      string    `json:"role"`       // Роль пользователя, admin или user
	CreatedAt time.Time `json:"created_at"` // Дата регистрации
}
