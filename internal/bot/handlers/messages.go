package handlers

// Operator-facing replies. All are sent with HTML parse mode.
const (
	msgAddUsage       = "<b>Usage:</b> /add &lt;group_id&gt; &lt;group_name&gt;\n<b>Example:</b> /add -100123456789 My Awesome Group"
	msgRemoveUsage    = "<b>Usage:</b> /remove &lt;group_id&gt;"
	msgSendUsage      = "<b>Usage:</b> Reply to a message with /send &lt;group_name_1&gt;,&lt;group_name_2&gt;"
	msgInvalidGroupID = "Invalid Group ID. It must be a number."
	msgGroupExists    = "Group ID %d already exists with name: <b>%s</b>."
	msgNameTaken      = "The name <b>%s</b> is already used by group <code>%d</code>. Pick a different name."
	msgGroupAdded     = "✅ Group '<b>%s</b>' (<code>%d</code>) added successfully."
	msgGroupRemoved   = "🗑️ Group '<b>%s</b>' (<code>%d</code>) removed successfully."
	msgGroupNotFound  = "Group ID %d not found in the list."
	msgNoGroups       = "No target groups have been added yet. Use /add to add one."
	msgListHeader     = "<b>Current Target Groups:</b>\n" + listSeparator
	listSeparator     = "‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐‐\n"
	msgListEntry      = "<b>Name:</b> %s\n<b>ID:</b> <code>%d</code>\n" + listSeparator
	msgSentTo         = "✅ Message sent to: %s."
	msgCouldNotSend   = "⚠️ Could not send to the following: %s."
	msgBroadcastDone  = "Message broadcast to all <b>%d</b> groups."
	msgBroadcastSome  = "Message broadcast to <b>%d</b> of <b>%d</b> groups."
	msgNothingToSend  = "There are no target groups to broadcast to."
	msgRegistryError  = "❌ Could not read or update the group list. Check the bot logs."
	msgNoHistory      = "No deliveries have been recorded yet."
	msgHistoryHeader  = "<b>Recent deliveries:</b>\n"
	msgHistoryUsage   = "<b>Usage:</b> /history [count]"
	msgHistoryError   = "❌ Could not read the delivery history. Check the bot logs."
)

const helpText = `<b>🤖 Bot Command Manual</b>

<b>--- Group Management ---</b>

/add &lt;group_id&gt; &lt;group_name&gt;
Add a group to the forwarding list
Example: <code>/add -100123456 My_Group</code>

/remove &lt;group_id&gt;
Remove a group from the forwarding list
Example: <code>/remove -100123456</code>

/list
Show every group in the forwarding list

<b>--- Message Forwarding ---</b>
(Must be a reply to a message)
Post the message you want to forward in this chat first, then reply to it with one of:

1.
/send &lt;group_name_1&gt;,&lt;group_name_2&gt;
Copy the message to the named groups
Example: <code>/send My_Group_A,My_Group_B</code>

2.
/broadcast
Copy the message to every group

<b>--- General ---</b>

/history [count]
Show the most recent delivery attempts

/help
Show this message
`
