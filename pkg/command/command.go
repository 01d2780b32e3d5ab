// Package command defines the two commands a scheduler may issue to a
// worker in a given tick, and their wire encoding.
package command

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"atlantis/pkg/pearl"
	"atlantis/pkg/worker"
)

// Command is a single instruction issued to a worker for one tick.
type Command interface {
	// Source is the worker the command is issued against: the origin
	// worker for a Pass, the processing worker for a Nom. This is the
	// worker the dispatcher books load against and the worker that must
	// match a plan's current holder.
	Source() worker.ID
	// Pearl is the pearl this command acts on.
	Pearl() pearl.ID

	json.Marshaler
}

// Pass moves a pearl from one worker to an adjacent one.
type Pass struct {
	From worker.ID
	To   worker.ID
	Of   pearl.ID
}

func (p Pass) Source() worker.ID { return p.From }
func (p Pass) Pearl() pearl.ID   { return p.Of }

type passPayload struct {
	PearlID  pearl.ID  `json:"pearl_id"`
	ToWorker worker.ID `json:"to_worker"`
}

// MarshalJSON encodes as {"Pass": {"pearl_id": ..., "to_worker": ...}}.
func (p Pass) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pass passPayload `json:"Pass"`
	}{Pass: passPayload{PearlID: p.Of, ToWorker: p.To}})
}

// Nom is a single processing bite on the top layer of a pearl.
type Nom struct {
	Worker worker.ID
	Of     pearl.ID
}

func (n Nom) Source() worker.ID { return n.Worker }
func (n Nom) Pearl() pearl.ID   { return n.Of }

// MarshalJSON encodes as {"Nom": <pearl_id>}.
func (n Nom) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Nom pearl.ID `json:"Nom"`
	}{Nom: n.Of})
}

// Output is the per-tick map from worker id to the single command issued
// against it. It marshals as a JSON object keyed by worker id in
// ascending numeric order — not required for correctness, but kept
// deterministic and reproducible for byte-identical replay.
type Output map[worker.ID]Command

// MarshalJSON implements a stable, ascending-by-worker-id encoding.
func (o Output) MarshalJSON() ([]byte, error) {
	ids := make([]worker.ID, 0, len(o))
	for id := range o {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(strconv.FormatUint(uint64(id), 10))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
