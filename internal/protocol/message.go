// Package protocol defines the GophMail wire format shared by the server
// and the client.
//
// Every request and every response is one JSON object followed by a single
// '\n'. The protocol is strictly request/response: the server writes exactly
// one response per request and never sends anything unprompted.
package protocol

// Operation names.
const (
	OpCheckConnection = "check_connection"
	OpRegister        = "register"
	OpLogin           = "login"
	OpLogout          = "logout"
	OpSendEmail       = "send_email"
	OpReceiveEmails   = "receive_emails"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request carries the union of all operation fields; each operation reads
// only its own.
type Request struct {
	Operation string `json:"operation"`
	Name      string `json:"nome,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"senha,omitempty"`
	Recipient string `json:"destinatario,omitempty"`
	Subject   string `json:"assunto,omitempty"`
	Body      string `json:"corpo,omitempty"`
}

// Response is the reply to one Request. Name is set by a successful login;
// Emails by a successful receive_emails, as an empty array when the inbox
// was empty. Remaining counts the messages left queued because they did not
// fit in the response.
type Response struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Name      string  `json:"nome,omitempty"`
	Emails    []Email `json:"emails,omitzero"`
	Remaining int     `json:"remaining,omitempty"`
}

// Email is a drained message as seen by the client.
type Email struct {
	ID         string `json:"id"`
	Sender     string `json:"remetente"`
	SenderName string `json:"remetente_nome"`
	Recipient  string `json:"destinatario"`
	Timestamp  string `json:"data_hora"`
	Subject    string `json:"assunto"`
	Body       string `json:"corpo"`
}

func (r *Response) OK() bool {
	return r.Status == StatusSuccess
}

func Success(message string) *Response {
	return &Response{Status: StatusSuccess, Message: message}
}

func Failure(message string) *Response {
	return &Response{Status: StatusError, Message: message}
}
