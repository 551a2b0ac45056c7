package app

import (
	"devicelink/internal/dedupe"
	"devicelink/internal/devicejoin"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
)

// envelopePump is wired as mediator.Handlers.OnEnvelope. It is the "higher
// layer" internal/wire's envelope codec defers to for interpreting sync
// variants' opaque Raw payloads (spec.md §3, §9): contact and group syncs
// update the local cache directly, message variants feed the same dedupe
// ledger CSP-received frames use so a genuinely repeated reflection is
// recognized on its second delivery, and settings syncs are surfaced only
// as a log line since no settings store exists.
type envelopePump struct {
	contacts interfaces.ContactStore
	groups   interfaces.GroupStore
	dedupe   *dedupe.LRU
}

// handle runs on the mediator session's read-loop goroutine, matching
// inboundPump.handle's contract: cheap synchronous stores only, no
// network calls.
func (p *envelopePump) handle(env types.Envelope) {
	switch env.Kind {
	case types.KindContactSync:
		c, err := devicejoin.DecodeContactSync(env.Raw)
		if err != nil {
			logger.Warningf("contact-sync envelope: %v", err)
			return
		}
		if err := p.contacts.SaveContact(c); err != nil {
			logger.Warningf("contact-sync envelope for %s: save failed: %v", c.Identity, err)
		}

	case types.KindGroupSync:
		g, err := devicejoin.DecodeGroupSync(env.Raw)
		if err != nil {
			logger.Warningf("group-sync envelope: %v", err)
			return
		}
		if err := p.groups.SaveGroup(g); err != nil {
			logger.Warningf("group-sync envelope for %s:%d: save failed: %v", g.CreatorIdentity, g.GroupID, err)
		}

	case types.KindSettingsSync:
		logger.Debugf("settings-sync envelope from device %d (%d bytes, no local settings store)", env.DeviceID, len(env.Raw))

	case types.KindIncomingMessage, types.KindOutgoingMessage:
		p.markSeen(env)
		logger.Debugf("%s envelope from device %d", env.Kind, env.DeviceID)

	case types.KindIncomingMessageUpdate, types.KindOutgoingMessageUpdate:
		p.markSeen(env)
		logger.Debugf("%s envelope from device %d", env.Kind, env.DeviceID)

	default:
		logger.Debugf("unhandled envelope kind %s from device %d", env.Kind, env.DeviceID)
	}
}

// markSeen inserts the message's dedupe key once it has been surfaced, so
// that a second delivery of the same reflected envelope is recognized as a
// duplicate by mediator.Session.handleReflected's dedupeCheck (which only
// reads the ledger; something must write to it).
func (p *envelopePump) markSeen(env types.Envelope) {
	if env.Message == nil || env.Message.MessageID == 0 {
		return
	}
	if _, err := p.dedupe.Insert(dedupe.Key(env.Message.ConversationIdentity, env.Message.MessageID)); err != nil {
		logger.Warningf("dedupe insert for %s/%d failed: %v", env.Message.ConversationIdentity, env.Message.MessageID, err)
	}
}
