package errors

// Panel titles and fixed messages shown in place of the chart.
const (
	TitleResize  = "Resize"
	TitleLoading = "Data Loading"
	TitleError   = "Error"

	MsgSizeError    = "Can't display the chart: the component is too small. Please resize it."
	MsgDataError    = "No data to display. Check the selected dimensions, metric and filters."
	MsgGeneralError = "Something went wrong:"
)

// Panel returns the title and message for the error panel that replaces the
// chart when err terminates a render.
func Panel(err error) (title, message string) {
	switch KindOf(err) {
	case KindSize:
		return TitleResize, MsgSizeError
	case KindData:
		return TitleLoading, MsgDataError
	default:
		return TitleError, MsgGeneralError + " " + UserMessage(err)
	}
}
