package models

import "sync"

// HUDPanel keeps the latest debug text for the side panel.
type HUDPanel struct {
	mu   sync.Mutex
	text string
}

func NewHUDPanel() *HUDPanel {
	return &HUDPanel{text: "Waiting for first frame..."}
}

func (p *HUDPanel) Show(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
	return nil
}

func (p *HUDPanel) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}
