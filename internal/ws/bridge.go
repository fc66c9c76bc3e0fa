package ws

import (
	"log"

	"prosumer_scenarios/internal/model"
)

// Bridge implements scenario.Plotter and broadcasts scenario data to the
// WebSocket hub.
type Bridge struct {
	hub *Hub
}

func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub}
}

func (b *Bridge) Plot(profiles map[int]model.DemandProfile, scenarioID int) {
	msg, err := NewEnvelope(TypeScenarioProfiles, ProfilesFromModel(profiles, scenarioID))
	if err != nil {
		log.Printf("Error marshaling profiles of scenario %d: %v", scenarioID, err)
		return
	}
	b.hub.Broadcast(msg)
}

// PublishSet makes set the current scenario set of the hub.
func (b *Bridge) PublishSet(set *model.ScenarioSet) {
	msg, err := NewEnvelope(TypeScenarioSet, ScenarioSetFromModel(set))
	if err != nil {
		log.Printf("Error marshaling scenario set: %v", err)
		return
	}
	b.hub.Publish(msg)
}
