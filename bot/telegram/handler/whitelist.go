package handler

import "sort"

// Whitelist restricts the bot to configured chats. Admins are served everywhere.
// It is fixed at startup.
type Whitelist struct {
	enabled  bool
	chatIDs  map[int64]struct{}
	adminIDs map[int64]struct{}
}

func NewWhitelist(enabled bool, chatIDs []int64, adminIDs []int64) *Whitelist {
	chatIDSet := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		chatIDSet[id] = struct{}{}
	}
	adminIDSet := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		adminIDSet[id] = struct{}{}
	}
	return &Whitelist{
		enabled:  enabled,
		chatIDs:  chatIDSet,
		adminIDs: adminIDSet,
	}
}

func (w *Whitelist) IsAllowed(chatID int64, userID int64) bool {
	if w == nil {
		return true
	}
	if !w.enabled {
		return true
	}
	if _, ok := w.adminIDs[userID]; ok {
		return true
	}
	if _, ok := w.chatIDs[chatID]; ok {
		return true
	}
	return false
}

func (w *Whitelist) List() []int64 {
	if w == nil {
		return nil
	}
	ids := make([]int64, 0, len(w.chatIDs))
	for id := range w.chatIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

func (w *Whitelist) Enabled() bool {
	if w == nil {
		return false
	}
	return w.enabled
}
