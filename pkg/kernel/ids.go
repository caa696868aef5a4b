package kernel

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type CVID string

func NewCVID(id string) CVID { return CVID(id) }
func (c CVID) String() string { return string(c) }
func (c CVID) IsEmpty() bool  { return string(c) == "" }

type PaperID string

func NewPaperID(id string) PaperID { return PaperID(id) }
func (p PaperID) String() string   { return string(p) }
func (p PaperID) IsEmpty() bool    { return string(p) == "" }

type SessionID string

func NewSessionID(id string) SessionID { return SessionID(id) }
func (s SessionID) String() string     { return string(s) }
func (s SessionID) IsEmpty() bool      { return string(s) == "" }

type TurnID string

func NewTurnID(id string) TurnID { return TurnID(id) }
func (t TurnID) String() string  { return string(t) }
func (t TurnID) IsEmpty() bool   { return string(t) == "" }

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (j JobID) String() string { return string(j) }
func (j JobID) IsEmpty() bool  { return string(j) == "" }
