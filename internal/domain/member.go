package domain

// VoiceState is the ephemeral per-member state inside a voice channel.
// Never persisted.
type VoiceState struct {
	IsMuted    bool `json:"isMuted"`
	IsDeafened bool `json:"isDeafened"`
	HasVideo   bool `json:"hasVideo"`
}

// VoicePatch overrides selected VoiceState fields; nil means "keep".
type VoicePatch struct {
	IsMuted    *bool
	IsDeafened *bool
	HasVideo   *bool
}

func (p VoicePatch) Apply(s VoiceState) VoiceState {
	if p.IsMuted != nil {
		s.IsMuted = *p.IsMuted
	}
	if p.IsDeafened != nil {
		s.IsDeafened = *p.IsDeafened
	}
	if p.HasVideo != nil {
		s.HasVideo = *p.HasVideo
	}
	return s
}

type VoiceFlag string

const (
	FlagMuted    VoiceFlag = "isMuted"
	FlagDeafened VoiceFlag = "isDeafened"
	FlagVideo    VoiceFlag = "hasVideo"
)

// Set mutates one flag. Unknown flags are ignored and reported as false.
func (s *VoiceState) Set(flag VoiceFlag, v bool) bool {
	switch flag {
	case FlagMuted:
		s.IsMuted = v
	case FlagDeafened:
		s.IsDeafened = v
	case FlagVideo:
		s.HasVideo = v
	default:
		return false
	}
	return true
}

// VoiceMember is a read-only view of one roster entry.
type VoiceMember struct {
	UserID   UserID `json:"userId"`
	Username string `json:"username,omitempty"`
	VoiceState
}
