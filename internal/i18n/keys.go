package i18n

// Message identifiers shared by the bundles.
const (
	ButtonAdd    = "ButtonAdd"
	ButtonView   = "ButtonView"
	ButtonDelete = "ButtonDelete"
	ButtonEdit   = "ButtonEdit"
	ButtonYes    = "ButtonYes"
	ButtonNo     = "ButtonNo"
	ButtonExit   = "ButtonExit"

	Greeting     = "Greeting"
	ChooseAction = "ChooseAction"
	WhatNext     = "WhatNext"
	Cancelled    = "Cancelled"
	NotSet       = "NotSet"

	AddPrompt    = "AddPrompt"
	ViewPrompt   = "ViewPrompt"
	DeletePrompt = "DeletePrompt"
	EditPrompt   = "EditPrompt"

	MissingTitleAndStart = "MissingTitleAndStart"
	MissingTitle         = "MissingTitle"
	MissingStart         = "MissingStart"
	AskTitleAndStart     = "AskTitleAndStart"
	AskTitle             = "AskTitle"
	AskStart             = "AskStart"
	CollectedHeader      = "CollectedHeader"
	CollectedTitle       = "CollectedTitle"
	CollectedStart       = "CollectedStart"
	CollectedEnd         = "CollectedEnd"
	CollectedPlace       = "CollectedPlace"
	CollectedDescription = "CollectedDescription"
	EventAdded           = "EventAdded"
	SaveFailed           = "SaveFailed"
	EventLine            = "EventLine"
	EventPlace           = "EventPlace"
	EventDescription     = "EventDescription"
	EventWeekly          = "EventWeekly"
	DateNotRecognized    = "DateNotRecognized"
	EventsHeaderExact    = "EventsHeaderExact"
	EventsHeaderAfter    = "EventsHeaderAfter"
	EventsHeaderBefore   = "EventsHeaderBefore"
	EventsHeaderSpan     = "EventsHeaderSpan"
	NoEventsExact        = "NoEventsExact"
	NoEventsDay          = "NoEventsDay"
	NoEventsSpan         = "NoEventsSpan"
	LoadFailed           = "LoadFailed"
	DeleteDateMissing    = "DeleteDateMissing"
	DeleteNotFound       = "DeleteNotFound"
	DeleteConfirm        = "DeleteConfirm"
	DeleteDone           = "DeleteDone"
	DeleteCancelled      = "DeleteCancelled"
	DeleteFailed         = "DeleteFailed"
	LookupFailed         = "LookupFailed"
	ConfirmChoose        = "ConfirmChoose"
	EditNothing          = "EditNothing"
	EditNotFound         = "EditNotFound"
	EditConfirm          = "EditConfirm"
	EditDone             = "EditDone"
	EditCancelled        = "EditCancelled"
	EditFailed           = "EditFailed"
	DiffTitle            = "DiffTitle"
	DiffDescription      = "DiffDescription"
	DiffStart            = "DiffStart"
	DiffEnd              = "DiffEnd"
	DiffPlace            = "DiffPlace"
	StepTitle            = "StepTitle"
	StepTitleEmpty       = "StepTitleEmpty"
	StepDescription      = "StepDescription"
	StepStart            = "StepStart"
	StepStartInvalid     = "StepStartInvalid"
	StepEnd              = "StepEnd"
	StepEndInvalid       = "StepEndInvalid"
	StepEndBeforeStart   = "StepEndBeforeStart"
	StepPlace            = "StepPlace"
	StepWeekly           = "StepWeekly"
	ExportEmpty          = "ExportEmpty"
	ExportCaption        = "ExportCaption"
	ExportFailed         = "ExportFailed"
)
